package audit

var _ Auditor = (*NoopAuditor)(nil)

// NoopAuditor is used when no audit log is configured.
type NoopAuditor struct{}

func NewNoopAuditor() *NoopAuditor {
	return &NoopAuditor{}
}

func (n *NoopAuditor) Log(Entry) error {
	return nil
}

func (n *NoopAuditor) Close() error {
	return nil
}
