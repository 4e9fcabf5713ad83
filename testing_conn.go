package equitywire

import "context"

type mockConnection struct {
	OpenFunc      func(ctx context.Context) error
	WriteFunc     func(m Message) error
	CloseFunc     func()
	CloseChanFunc func() CloseChan
	CloseErrFunc  func() error
}

func (m *mockConnection) Open(ctx context.Context) error {
	return m.OpenFunc(ctx)
}

func (m *mockConnection) Write(msg Message) error {
	return m.WriteFunc(msg)
}

func (m *mockConnection) Close() {
	m.CloseFunc()
}

func (m *mockConnection) CloseChan() CloseChan {
	return m.CloseChanFunc()
}

func (m *mockConnection) CloseErr() error {
	return m.CloseErrFunc()
}
