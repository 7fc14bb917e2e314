// Package models defines core domain types
package models
