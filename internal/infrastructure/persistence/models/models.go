package models

// AllModels returns every persistence model, in FK-safe creation order.
// Used by auto-migration.
func AllModels() []any {
	return []any{
		&UserModel{},
		&SongModel{},
		&EntitlementModel{},
		&PurchaseModel{},
		&GameplaySessionModel{},
		&PerformanceMetricModel{},
		&AdminModel{},
	}
}
