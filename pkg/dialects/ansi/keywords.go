package ansi

// reservedKeywords can never be naked identifiers.
var reservedKeywords = []string{
	"all", "and", "as", "asc", "between", "by", "case", "create", "cross",
	"current_date", "current_time", "current_timestamp", "default", "delete",
	"desc", "distinct", "drop", "else", "end", "escape", "except", "exists",
	"false", "foreign", "from", "full", "group", "having", "in", "inner",
	"insert", "intersect", "interval", "into", "is", "join", "left", "like",
	"limit", "minus", "not", "null", "on", "or", "order", "outer", "over",
	"primary", "qualify", "references", "right", "select", "set", "table",
	"then", "true", "union", "unique", "update", "using", "values", "when",
	"where", "with",
}

// unreservedKeywords have keyword segments but may still name things.
var unreservedKeywords = []string{
	"auto_increment", "cascade", "chain", "comment", "commit", "constraint",
	"first", "if", "ignore", "isnull", "key", "last", "nan", "no", "notnull",
	"nulls", "offset", "overwrite", "partition", "replace", "respect",
	"restrict", "rlike", "rollback", "rows", "value", "view", "work",
}

var datetimeUnits = []string{
	"day", "dayofyear", "hour", "millisecond", "minute", "month", "quarter",
	"second", "week", "weekday", "year",
}
