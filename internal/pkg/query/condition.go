package query

import (
	"fmt"
	"strings"
)

// Condition represents a WHERE clause condition.
// Implementations must generate SQL fragments and parameter maps
// using Spanner's named parameter format (@paramName).
type Condition interface {
	// SQL returns the SQL fragment and parameter map for this condition.
	// paramIndex is used to generate unique parameter names (@p0, @p1, etc.)
	SQL(paramIndex int) (string, map[string]interface{})
}

// eqCondition implements equality comparison (field = value).
type eqCondition struct {
	field string
	value interface{}
}

// Eq creates a WHERE condition for equality comparison.
// Example: Eq("event_kind", "email.welcome") generates "event_kind = @p0"
func Eq(field string, value interface{}) Condition {
	return &eqCondition{
		field: field,
		value: value,
	}
}

// SQL generates the SQL fragment for equality comparison.
func (c *eqCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	paramName := fmt.Sprintf("p%d", paramIndex)
	sql := fmt.Sprintf("%s = @%s", c.field, paramName)
	params := map[string]interface{}{
		paramName: c.value,
	}
	return sql, params
}

// lteCondition implements less-than-or-equal comparison (field <= value).
type lteCondition struct {
	field string
	value interface{}
}

// Lte creates a WHERE condition for less-than-or-equal comparison.
// Example: Lte("next_processing_utc", now) generates "next_processing_utc <= @p0"
func Lte(field string, value interface{}) Condition {
	return &lteCondition{
		field: field,
		value: value,
	}
}

// SQL generates the SQL fragment for less-than-or-equal comparison.
func (c *lteCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	paramName := fmt.Sprintf("p%d", paramIndex)
	sql := fmt.Sprintf("%s <= @%s", c.field, paramName)
	params := map[string]interface{}{
		paramName: c.value,
	}
	return sql, params
}

// ltCondition implements less-than comparison (field < value).
type ltCondition struct {
	field string
	value interface{}
}

// Lt creates a WHERE condition for less-than comparison.
// Example: Lt("processed_utc", cutoff) generates "processed_utc < @p0"
func Lt(field string, value interface{}) Condition {
	return &ltCondition{
		field: field,
		value: value,
	}
}

// SQL generates the SQL fragment for less-than comparison.
func (c *ltCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	paramName := fmt.Sprintf("p%d", paramIndex)
	sql := fmt.Sprintf("%s < @%s", c.field, paramName)
	params := map[string]interface{}{
		paramName: c.value,
	}
	return sql, params
}

// IsNull creates a WHERE condition for NULL checks.
// Example: IsNull("processed_utc") generates "processed_utc IS NULL"
func IsNull(field string) Condition {
	return &isNullCondition{field: field}
}

// isNullCondition implements IS NULL comparison.
type isNullCondition struct {
	field string
}

// SQL generates the SQL fragment for IS NULL comparison.
func (c *isNullCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	sql := fmt.Sprintf("%s IS NULL", c.field)
	return sql, map[string]interface{}{}
}

// IsNotNull creates a WHERE condition for NOT NULL checks.
// Example: IsNotNull("processed_utc") generates "processed_utc IS NOT NULL"
func IsNotNull(field string) Condition {
	return &isNotNullCondition{field: field}
}

// isNotNullCondition implements IS NOT NULL comparison.
type isNotNullCondition struct {
	field string
}

// SQL generates the SQL fragment for IS NOT NULL comparison.
func (c *isNotNullCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	sql := fmt.Sprintf("%s IS NOT NULL", c.field)
	return sql, map[string]interface{}{}
}

// Or combines conditions with OR logic, wrapped in parentheses.
// Example: Or(IsNull("next_processing_utc"), Lte("next_processing_utc", now))
// generates "(next_processing_utc IS NULL OR next_processing_utc <= @p0)"
func Or(conditions ...Condition) Condition {
	return &orCondition{conditions: conditions}
}

// orCondition implements OR composition of conditions.
type orCondition struct {
	conditions []Condition
}

// SQL generates the parenthesized OR fragment, threading parameter
// indexes through the nested conditions.
func (c *orCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	parts := make([]string, 0, len(c.conditions))
	params := make(map[string]interface{})
	for _, condition := range c.conditions {
		fragment, condParams := condition.SQL(paramIndex)
		parts = append(parts, fragment)
		for k, v := range condParams {
			params[k] = v
		}
		paramIndex += len(condParams)
	}
	return "(" + strings.Join(parts, " OR ") + ")", params
}
