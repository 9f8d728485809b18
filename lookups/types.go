package lookups

// since there are no joins in MongoDB, text descriptions of code values are fetched by the API

// there's no real good solution in GO :-/
// https://www.reddit.com/r/golang/comments/kh305t/restrict_allowed_values_for_strings/

// Registry of Lookup/Code Types
const (
	LTuserRole = iota
	LTquestionStatus
	LTcategory
	LTnotificationType
)

// LookupType returns names of the available code types
func LookupType(lt int) string {

	var str = ""

	switch {
	case lt == LTuserRole:
		str = "user role"
	case lt == LTquestionStatus:
		str = "question status"
	case lt == LTcategory:
		str = "category"
	case lt == LTnotificationType:
		str = "notification type"
	}

	return str
}
