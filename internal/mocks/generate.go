// Package mocks provides mock implementations for testing the prashne ui-api.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// port interfaces. The mocks are generated using go:generate directives and
// provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	auditor := mocks.NewMockSignInAuditor(ctrl)
//	auditor.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)
package mocks

// Generate mock for SignInAuditor interface from internal/ports package.
// This creates MockSignInAuditor with methods for all SignInAuditor interface
// methods: Record, ListRecent
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=sign_in_auditor_mock.go github.com/ujwal209/prashne-ui-api/internal/ports SignInAuditor
