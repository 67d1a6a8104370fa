// Package debugging holds the computational core of the debugging exercises:
// array summation, floating-point division and email classification.
// The functions are pure; the Report helpers render the line-oriented demo
// output on top of them so entry points stay thin.
package debugging
