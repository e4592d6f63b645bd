package injector

// Injector delivers recognized text to the application that currently has
// keyboard focus. Implementations must deliver the exact string once.
type Injector interface {
	Deliver(text string) error
}
