// Package mocks provides generated mock implementations for testing.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the auth ports. Hand-written doubles for simple cases live in mocks/auth.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	backend := mocks.NewMockAuthInfoClient(ctrl)
//	backend.EXPECT().AuthInfo(gomock.Any(), gomock.Any()).Return(identity, nil)
package mocks

// Generate mock for AuthInfoClient interface from internal/ports.
// This creates MockAuthInfoClient with the AuthInfo method.
//go:generate go run go.uber.org/mock/mockgen -package=mocks -destination=authinfo_client_mock.go github.com/seclens/dashgate/internal/ports AuthInfoClient
