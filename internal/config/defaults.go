package config

// Section names. Unknown sections are rejected by the store.
const (
	SectionApp      = "app"
	SectionUI       = "ui"
	SectionDB       = "db"
	SectionLLM      = "llm"
	SectionAnalysis = "analysis"
	SectionSecurity = "security"
	SectionExport   = "export"
	SectionUpdate   = "update"
)

// defaults holds the seeded values for every section. Reset restores a
// section to exactly this state.
func defaults() map[string]map[string]any {
	return map[string]map[string]any{
		SectionApp: {
			"language":  "en",
			"autoStart": false,
		},
		SectionUI: {
			"theme":            "system",
			"pageSize":         float64(20),
			"sidebarCollapsed": false,
		},
		SectionDB: {
			"backupIntervalDays": float64(7),
			"keepBackups":        float64(5),
			"autoBackup":         true,
		},
		SectionLLM: {
			"timeoutMs":     float64(60000),
			"maxRetries":    float64(3),
			"streamEnabled": false,
		},
		SectionAnalysis: {
			"hexagonChartSize": float64(350),
			"autoAnalyze":      false,
			"language":         "en",
		},
		SectionSecurity: {
			"maskApiKeys":      true,
			"encryptLocalData": false,
		},
		SectionExport: {
			"format":          "json",
			"includeAnalysis": true,
		},
		SectionUpdate: {
			"autoCheck": true,
			"channel":   "stable",
		},
	}
}

// Sections returns the known section names.
func Sections() []string {
	return []string{
		SectionApp, SectionUI, SectionDB, SectionLLM,
		SectionAnalysis, SectionSecurity, SectionExport, SectionUpdate,
	}
}
