// Package manifest loads a type model described in YAML (or JSON) and serves
// it as a processor.Model.
//
// A manifest lists types with their direct interfaces, their superclass and,
// for the types to register, a provider marker with optional explicit
// contracts:
//
//	root: java.lang.Object
//	types:
//	  - id: com.example.Cat
//	    interfaces: [com.example.Animal]
//	    provider: {}
//	  - id: com.example.Mule
//	    extends: com.example.Horse
//	    provider:
//	      contracts: [com.example.Horse]
package manifest
