// Package appfs embeds the static files the apps need at runtime.
package appfs

import "embed"

const (
	MigrationsDir     = "migrations"
	EmailTemplatesDir = "templates/email"
	CommonPasswords   = "assets/common-passwords.txt.gz"
)

//go:embed migrations/*.sql templates/email/* assets/*
var FS embed.FS
