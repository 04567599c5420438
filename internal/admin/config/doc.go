// Package config loads settings for the subscription administration tool.
//
// Values come from the process environment after the env file (default
// .env.local) has been loaded with godotenv; variables already set in the
// process win over the file.
//
//	SUPABASE_URL or NEXT_PUBLIC_SUPABASE_URL   auth server base URL
//	SUPABASE_SERVICE_KEY                       service role key
//	DATABASE_URL                               Postgres DSN of the project database
//	EMPLOYCD_LOG_LEVEL                         debug, info, warn, error (default warn)
package config
