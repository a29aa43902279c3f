// Package preprocess prepares lines of an input file before they are shown
// to a language model.
//
// Sample picks a handful of lines with distinct shapes, so the model sees
// every timestamp layout a file contains rather than a run of near
// duplicates. A Redactor then replaces sensitive values with stable
// placeholders:
//
//	"login from 192.168.1.1 at 14/07/2009  01:14" -> "login from [IPV4:a3f2] at 14/07/2009  01:14"
//
// None of the built-in patterns match the digit groups of common timestamp
// layouts, so redaction leaves the timestamps the model is asked about
// intact. Patterns are selected in ~/.timestomper.yaml:
//
//	redaction:
//	  enabled: true
//	  patterns:
//	    - ipv4
//	    - email
//	    - api_key
package preprocess
