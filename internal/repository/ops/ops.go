package ops

const (
	Equal        = "=="
	NotEqual     = "!="
	Greater      = ">"
	GreaterEqual = ">="
	Less         = "<"
	LessEqual    = "<="
)
