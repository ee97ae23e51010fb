// Package tests provides end-to-end tests that run kvfile-server
// components together over real sockets and files.
package tests
