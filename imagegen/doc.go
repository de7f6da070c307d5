// Package imagegen defines the text-to-image provider interface, its request
// type with the documented parameter defaults and the wire payload derived from it.
package imagegen
