package errors

import (
	"fmt"
)

// UndefinedTableError represents a COMMENT ON marker that names a table
// without a CREATE TABLE statement in the same document
type UndefinedTableError struct {
	Table string
}

func (e *UndefinedTableError) Error() string {
	return fmt.Sprintf("Table '%s' is not defined.", e.Table)
}

// NewUndefinedTableError creates a new UndefinedTableError
func NewUndefinedTableError(table string) *UndefinedTableError {
	return &UndefinedTableError{Table: table}
}

// UndefinedColumnError represents a COMMENT ON COLUMN marker that names a
// column missing from its table's definition
type UndefinedColumnError struct {
	Table  string
	Column string
}

func (e *UndefinedColumnError) Error() string {
	return fmt.Sprintf("Column '%s' is not defined in '%s' table statements.", e.Column, e.Table)
}

// NewUndefinedColumnError creates a new UndefinedColumnError
func NewUndefinedColumnError(table, column string) *UndefinedColumnError {
	return &UndefinedColumnError{Table: table, Column: column}
}

// UndefinedIndexError represents a COMMENT ON INDEX marker without a
// matching CREATE INDEX statement
type UndefinedIndexError struct {
	Index string
}

func (e *UndefinedIndexError) Error() string {
	return fmt.Sprintf("Index '%s' is not defined.", e.Index)
}

// NewUndefinedIndexError creates a new UndefinedIndexError
func NewUndefinedIndexError(index string) *UndefinedIndexError {
	return &UndefinedIndexError{Index: index}
}

// FileError attaches the offending file to a processing failure
type FileError struct {
	File string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// NewFileError creates a new FileError
func NewFileError(file string, err error) *FileError {
	return &FileError{File: file, Err: err}
}

// ConnectionError represents PostgreSQL connection failure
type ConnectionError struct {
	Message    string
	Suggestion string
}

func (e *ConnectionError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Suggestion)
	}
	return e.Message
}

// ConfigError represents an invalid configuration value
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
