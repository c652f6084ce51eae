// Package mocks provides gomock mocks for the portal's port interfaces.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	sessions := mocks.NewMockSessionStore(ctrl)
//	sessions.EXPECT().Get(gomock.Any(), "s1").Return(sess, nil)
package mocks

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=session_store_mock.go github.com/target/campus-portal/internal/ports SessionStore
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=marker_store_mock.go github.com/target/campus-portal/internal/ports MarkerStore
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=credential_verifier_mock.go github.com/target/campus-portal/internal/ports CredentialVerifier
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=avatar_store_mock.go github.com/target/campus-portal/internal/ports AvatarStore
