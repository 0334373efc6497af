// Package placeholder validates npm package names and scaffolds the ephemeral
// placeholder package (manifest plus notice document) inside a uniquely named
// temporary directory.
package placeholder
