// Package component defines the lifecycle interfaces shared by the HTTP
// adapter component and the test servers in testutil.
package component
