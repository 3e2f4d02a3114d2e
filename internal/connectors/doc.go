// Package connectors provides clients for the external directories the
// collector reads from. Each connector implements the UserDirectory port
// for one provider; currently that is GitHub.
package connectors
