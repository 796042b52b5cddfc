// Package component defines the lifecycle contract shared by long-lived
// parts of an application: a name, Start and Stop, and a health probe.
//
// The asynchttp client implements Component and Describable so it can be
// registered with any lifecycle manager that understands these interfaces.
package component
