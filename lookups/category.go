package lookups

// Symbols of legal values
const (
	CATgeneral = iota
	CATprogramming
	CATdesign
	CATdevops
	CATdatabases
	CATcareer
)

// Category returns a "generic" string for a given value
func Category(value int) string {

	var str = ""

	switch {
	case value == CATgeneral:
		str = "General"
	case value == CATprogramming:
		str = "Programming"
	case value == CATdesign:
		str = "Design"
	case value == CATdevops:
		str = "DevOps"
	case value == CATdatabases:
		str = "Databases"
	case value == CATcareer:
		str = "Career"
	}

	return str
}
