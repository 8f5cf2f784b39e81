// Package driven defines the capability contracts satisfied by pluggable
// implementations (secondary/outbound ports): parsers, chunkers, embedders,
// backends, tools and embedding services. Each family carries a declared
// type key under which implementations register.
package driven
