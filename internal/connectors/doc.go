// Package connectors holds the sources a sync run reads permit exports from.
// Each connector implements driven.BatchSource for one export format.
package connectors
