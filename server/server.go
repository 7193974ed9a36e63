package server

type Server struct {
	Port string
}

// Run starts runner on the configured port, 8080 when none is set.
func (s *Server) Run(runner interface{ Run(addr ...string) error }) error {
	port := s.Port
	if port == "" {
		port = "8080"
	}
	return runner.Run(":" + port)
}
