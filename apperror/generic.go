package apperror

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrNoData = Error("no records found")
	ErrDenied = Error("not allowed") // eg. upd/del not allowed
)
