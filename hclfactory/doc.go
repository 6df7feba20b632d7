// Package hclfactory loads factory definitions from HCL files and replays
// them through the same proxy dispatcher Go-defined factories use.
//
// A file contains top-level `sequence` and `factory` blocks:
//
//	sequence "email" {
//	  format = "person%d@example.com"
//	}
//
//	factory "user" {
//	  attributes {
//	    name  = "John"
//	    email = null                  # bare reference, resolved at build time
//	    quote = "${name} says hi"     # lazy, evaluated against the instance
//	  }
//	  trait "admin" {
//	    attributes { admin = true }
//	  }
//	  association "account" {
//	    factory = "account"
//	  }
//	  factory "admin_user" {
//	    attributes { admin = true }
//	  }
//	}
//
// Every attribute is translated into a factory.Call and classified by
// Proxy.Apply, so HCL and Go declarations follow exactly the same rules: a
// null value becomes an implicit reference, an object value with a "factory"
// key becomes an association, an expression referencing sibling attributes
// becomes a dynamic declaration evaluated lazily against the build context,
// and everything else is a static attribute.
package hclfactory
