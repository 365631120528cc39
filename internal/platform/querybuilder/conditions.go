package querybuilder

import "strings"

type Condition interface {
	appendSQL(buf *strings.Builder, args *[]any, argIndex *int)
}

type compareCondition struct {
	column string
	op     string
	value  any
}

func Eq(column string, value any) Condition {
	return compareCondition{column: column, op: "=", value: value}
}

func Gte(column string, value any) Condition {
	return compareCondition{column: column, op: ">=", value: value}
}

// ILike matches case-insensitively; the caller supplies any % wildcards.
func ILike(column string, pattern string) Condition {
	return compareCondition{column: column, op: "ILIKE", value: pattern}
}

func (c compareCondition) appendSQL(buf *strings.Builder, args *[]any, argIndex *int) {
	buf.WriteString(c.column)
	buf.WriteByte(' ')
	buf.WriteString(c.op)
	buf.WriteByte(' ')
	writeArg(buf, args, argIndex, c.value)
}

type inCondition struct {
	column string
	values []any
}

func In[T any](column string, values []T) Condition {
	boxed := make([]any, 0, len(values))
	for _, v := range values {
		boxed = append(boxed, v)
	}
	return inCondition{column: column, values: boxed}
}

func (c inCondition) appendSQL(buf *strings.Builder, args *[]any, argIndex *int) {
	if len(c.values) == 0 {
		buf.WriteString("1=0")
		return
	}

	buf.WriteString(c.column)
	buf.WriteString(" IN (")
	for i, v := range c.values {
		if i > 0 {
			buf.WriteString(", ")
		}
		writeArg(buf, args, argIndex, v)
	}
	buf.WriteString(")")
}

type isNullCondition struct {
	column string
}

func IsNull(column string) Condition {
	return isNullCondition{column: column}
}

func (c isNullCondition) appendSQL(buf *strings.Builder, _ *[]any, _ *int) {
	buf.WriteString(c.column)
	buf.WriteString(" IS NULL")
}

type textSearchCondition struct {
	vector string
	query  string
}

// TextSearch matches a tsvector column against a to_tsquery expression under the
// 'simple' configuration, e.g. "anders | jensen".
func TextSearch(vectorColumn, tsquery string) Condition {
	return textSearchCondition{vector: vectorColumn, query: tsquery}
}

func (c textSearchCondition) appendSQL(buf *strings.Builder, args *[]any, argIndex *int) {
	buf.WriteString(c.vector)
	buf.WriteString(" @@ to_tsquery('simple', ")
	writeArg(buf, args, argIndex, c.query)
	buf.WriteString(")")
}

type exprCondition struct {
	expr string
	args []any
}

// Expr embeds raw SQL; each ? is bound to the next arg.
func Expr(expr string, args ...any) Condition {
	return exprCondition{expr: expr, args: args}
}

func (c exprCondition) appendSQL(buf *strings.Builder, args *[]any, argIndex *int) {
	buf.WriteString(rewritePlaceholders(c.expr, c.args, args, argIndex))
}

func writeArg(buf *strings.Builder, args *[]any, argIndex *int, value any) {
	buf.WriteString(placeholder(*argIndex))
	*args = append(*args, value)
	*argIndex = *argIndex + 1
}
