package signal

func (ctl *SignalWSController) handlePing(s *session, _ []byte) error {
	ctl.sendJSON(s.conn, struct {
		Type string `json:"type"`
	}{
		Type: "pong",
	})
	return nil
}
