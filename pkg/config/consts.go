package config

const (
	// EnvPrefix is the envconfig prefix; individual fields carry explicit names.
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "EDUPLATFORM_DB_DSN"
	EnvDBHost = "EDUPLATFORM_DB_HOST"
	EnvDBUser = "EDUPLATFORM_DB_USER"
	EnvDBName = "EDUPLATFORM_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
