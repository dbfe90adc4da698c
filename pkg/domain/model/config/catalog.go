package config

// CatalogConfig holds defaults applied when services are created or imported
type CatalogConfig struct {
	DefaultResolutionDays int
	DefaultDepartment     string
	DefaultDivision       string
}

// AnalyticsConfig controls the catalog analytics dashboard
type AnalyticsConfig struct {
	// ManualChannels are request-channel markers that classify a service as non-systematized
	ManualChannels      []string
	TopSecretariats     int
	TopOperatingSystems int
}

// DashboardConfig controls the operational dashboard
type DashboardConfig struct {
	CriticalWindowDays int
	CriticalLimit      int
	RecentLimit        int
	TopSecretariats    int
}

// AppConfig bundles the tunable domain settings
type AppConfig struct {
	Catalog   CatalogConfig
	Analytics AnalyticsConfig
	Dashboard DashboardConfig
}

// Default returns the settings used when no configuration file is given
func Default() *AppConfig {
	return &AppConfig{
		Catalog: CatalogConfig{
			DefaultResolutionDays: 30,
			DefaultDepartment:     "General Department",
			DefaultDivision:       "General Attendance",
		},
		Analytics: AnalyticsConfig{
			ManualChannels:      []string{"Presencial", "Telefone", "Whatsapp", "E-mail"},
			TopSecretariats:     10,
			TopOperatingSystems: 10,
		},
		Dashboard: DashboardConfig{
			CriticalWindowDays: 7,
			CriticalLimit:      5,
			RecentLimit:        5,
			TopSecretariats:    5,
		},
	}
}
