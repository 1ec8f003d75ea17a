package view

// Mode is the active presentation mode. Exactly one is active at a time.
type Mode string

// View modes.
const (
	List   Mode = "list"
	Form   Mode = "form"
	Search Mode = "search"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == List || m == Form || m == Search
}
