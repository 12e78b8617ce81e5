package util

import (
	"encoding/json"
	"fmt"
)

// PrintJSON renders obj for --json output. Values that cannot marshal
// fall back to the Go representation rather than printing nothing.
func PrintJSON(obj any) {
	txt, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		fmt.Printf("%+v\n", obj)
		return
	}
	fmt.Println(string(txt))
}
