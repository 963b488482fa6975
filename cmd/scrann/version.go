package main

import "fmt"

type versionCmd struct{ r *root }

func (v *versionCmd) Run() error {
	out := fmt.Sprintf("%s version %s", v.r.program, version)
	if commit != "" {
		out += fmt.Sprintf(" (%s)", commit)
	}
	if date != "" {
		out += " built " + date
	}
	fmt.Println(out)
	return nil
}
