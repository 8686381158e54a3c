// Package utils provides value conversions shared by record sources.
package utils
