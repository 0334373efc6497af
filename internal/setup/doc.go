// Package setup orchestrates the placeholder publishing workflow: validate the
// package name, scaffold the placeholder, publish it through the npm CLI (or
// describe the manual command on dry runs), report follow-up steps, and clean
// up the temporary directory.
package setup
