// Package yq runs jq queries over YAML and JSON documents.
//
// jq itself is not reimplemented: it is looked up on the PATH and run as a
// child process for every query.  The data flows as follows:
//
//	YAML or JSON input -> Documents -> jq (stdin) -> JSON text stream (stdout)
//	    -> normalized Document -> YAML or JSON output
//
// The package is organized into several sub-packages:
//
// - document: the Document type, a JSON value with ordered object keys
// - encoding/json: JSON text stream decoder and JSON encoder
// - encoding/yaml: YAML decoder and encoder
// - stream: turns jq's output stream into a single Document
// - which: PATH lookup of the jq executable
// - query: runs jq as a child process
//
// When jq outputs a single value, that value is the result.  When it outputs
// several (e.g. for the query ".[]"), the result is an array of them, so that
// it can be written as one YAML document.
//
// The CLI utility is in the directory cmd/yq.  You can install it with:
//
//	go install github.com/arnodel/yq/cmd/yq
package yq
