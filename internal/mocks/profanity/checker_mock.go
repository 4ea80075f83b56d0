package profanity

import "github.com/stretchr/testify/mock"

type CheckerMock struct {
	mock.Mock
}

func NewCheckerMock() *CheckerMock {
	return &CheckerMock{}
}

func (m *CheckerMock) IsProfane(s string) bool {
	args := m.Called(s)
	return args.Bool(0)
}
