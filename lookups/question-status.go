package lookups

// Symbols of legal values
const (
	QSopen = iota
	QSanswered
	QSclosed
)

// QuestionStatus returns a "generic" string for a given value
func QuestionStatus(value int) string {

	var str = ""

	switch {
	case value == QSopen:
		str = "open"
	case value == QSanswered:
		str = "answered"
	case value == QSclosed:
		str = "closed"
	}

	return str
}
