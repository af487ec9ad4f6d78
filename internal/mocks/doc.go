// Package mocks provides shared test doubles for the store, service and auth
// interfaces.
//
// Store and service mocks embed testify's mock.Mock:
//
//	tasks := new(mocks.TaskStore)
//	tasks.On("Count", mock.Anything, ownerID, mock.Anything).Return(3, nil)
//
// The auth mocks use function fields with static defaults instead, which keeps
// middleware tests short:
//
//	jwt := &mocks.MockJWTService{Claims: &auth.Claims{UserID: id}}
package mocks
