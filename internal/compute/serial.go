package compute

// Serial runs every chunk on the calling goroutine.
type Serial struct{}

func NewSerial() *Serial { return &Serial{} }

func (s *Serial) Name() string    { return "serial" }
func (s *Serial) Available() bool { return true }
func (s *Serial) Cleanup()        {}

func (s *Serial) For(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	fn(0, n)
}
