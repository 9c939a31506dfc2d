// Package shared holds helpers used by more than one package that belong to
// no single layer. Test helpers live in the testutil subpackage.
package shared
