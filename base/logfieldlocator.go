package base

// LogFieldLocator is used to locate a named field in LogRecord, bound to a LogSchema
type LogFieldLocator int

// MissingFieldLocator represents non-existing index to a log field
const MissingFieldLocator LogFieldLocator = -1

// Name returns the field name
func (loc LogFieldLocator) Name(schema LogSchema) string {
	return schema.fields[loc].Name
}

// Get returns the field value
func (loc LogFieldLocator) Get(values []LogValue) LogValue {
	return values[loc]
}

// Set assigns the field value
func (loc LogFieldLocator) Set(values []LogValue, value LogValue) {
	values[loc] = value
}
