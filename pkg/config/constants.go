package config

const (
	// EnvPrefix is passed to envconfig; individual tags carry the full name.
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "HISOBLY_DB_DSN"
	EnvDBHost = "HISOBLY_DB_HOST"
	EnvDBUser = "HISOBLY_DB_USER"
	EnvDBName = "HISOBLY_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
