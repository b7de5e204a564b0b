// Package database provides connection management, bootstrap migrations,
// foreign key handling, configuration loading, query hooks, SQL error
// classification, and logging built on top of Bun.
package database
