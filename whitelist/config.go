// Package whitelist guards SQL identifiers that originate from a request.
//
// Parameter binding cannot parametrize identifiers, so column and table names
// chosen at runtime (sort keys, filter fields) are spliced into SQL text. Every
// such name must pass ValidateFieldName and be an exact member of a
// FieldWhitelist before it reaches string interpolation.
//
// Example usage:
//
//	var reagentFields = whitelist.New(whitelist.DefaultFieldConfig(),
//	    "name", "status", "total_quantity", "created_at",
//	)
//
//	if err := reagentFields.Validate(req.SortBy); err != nil {
//	    return nil, err // rejected: not a column we allow
//	}
package whitelist

const (
	// DefaultMaxFieldLength is the longest plain column name accepted.
	DefaultMaxFieldLength = 64

	// DefaultMinFieldLength is the shortest column name accepted.
	DefaultMinFieldLength = 1

	// QualifiedMaxFieldLength is the longest "table.column" name accepted.
	QualifiedMaxFieldLength = 128
)

// FieldConfig is the syntactic policy applied to a field name.
type FieldConfig struct {
	MaxFieldLength int
	MinFieldLength int

	// ReservedWords holds uppercase SQL keywords that can never be used as a
	// name or as one segment of a qualified name.
	ReservedWords map[string]struct{}

	// AllowLeadingUnderscore permits names such as "_rowid".
	AllowLeadingUnderscore bool

	// AllowDots permits one structural dot, as in "table.column" or
	// "schema.table". The dot must sit between two non-empty segments.
	AllowDots bool

	// AllowBrackets permits a segment wrapped in one pair of brackets, e.g. "[total]".
	AllowBrackets bool
}

// DefaultFieldConfig is the strict policy used for plain column names.
func DefaultFieldConfig() FieldConfig {
	return FieldConfig{
		MaxFieldLength: DefaultMaxFieldLength,
		MinFieldLength: DefaultMinFieldLength,
		ReservedWords:  reservedWords,
	}
}

// ReportFieldConfig permits qualified and bracketed column names used by report queries.
func ReportFieldConfig() FieldConfig {
	return FieldConfig{
		MaxFieldLength: QualifiedMaxFieldLength,
		MinFieldLength: DefaultMinFieldLength,
		ReservedWords:  reservedWords,
		AllowDots:      true,
		AllowBrackets:  true,
	}
}

// TableFieldConfig permits schema-qualified and underscore-prefixed table names.
func TableFieldConfig() FieldConfig {
	return FieldConfig{
		MaxFieldLength:         QualifiedMaxFieldLength,
		MinFieldLength:         DefaultMinFieldLength,
		ReservedWords:          reservedWords,
		AllowLeadingUnderscore: true,
		AllowDots:              true,
	}
}

// IsReserved reports whether word is a reserved SQL keyword under the config.
func (c FieldConfig) IsReserved(word string) bool {
	_, ok := c.ReservedWords[upper(word)]
	return ok
}

var reservedWords = setOf(
	"ADD", "ALL", "ALTER", "AND", "ANY", "AS", "ASC", "ATTACH", "BEGIN", "BETWEEN", "BY",
	"CASCADE", "CASE", "CAST", "CHECK", "COLUMN", "COMMIT", "CONSTRAINT", "CREATE", "CROSS",
	"DATABASE", "DEFAULT", "DELETE", "DESC", "DETACH", "DISTINCT", "DROP", "ELSE", "END",
	"ESCAPE", "EXCEPT", "EXEC", "EXECUTE", "EXISTS", "FOREIGN", "FROM", "FULL", "GLOB",
	"GRANT", "GROUP", "HAVING", "IN", "INDEX", "INNER", "INSERT", "INTERSECT", "INTO", "IS",
	"JOIN", "KEY", "LEFT", "LIKE", "LIMIT", "MATCH", "NATURAL", "NOT", "NULL", "OFFSET", "ON",
	"OR", "ORDER", "OUTER", "PRAGMA", "PRIMARY", "REFERENCES", "REGEXP", "RENAME", "REPLACE",
	"REVOKE", "RIGHT", "ROLLBACK", "SCHEMA", "SELECT", "SET", "TABLE", "THEN", "TO",
	"TRANSACTION", "TRIGGER", "TRUNCATE", "UNION", "UNIQUE", "UPDATE", "USING", "VACUUM",
	"VALUES", "VIEW", "WHEN", "WHERE", "WITH",
)

func setOf(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
