/* YaNFD - Yet another NDN Forwarding Daemon
 *
 * Copyright (C) 2020-2022 Eric Newberry.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// CmdTree is a tree of subcommands. Leaves run Fun with the remaining arguments, whose first element is the
// full command name.
type CmdTree struct {
	Name string
	Help string
	Sub  []*CmdTree
	Fun  func([]string)
}

// Usage prints the subcommands of c and exits with status 2.
func (c *CmdTree) Usage(args []string) {
	c.printUsage(os.Stderr, args)
	os.Exit(2)
}

func (c *CmdTree) printUsage(w io.Writer, args []string) {
	fmt.Fprintf(w, "%s (%s)\n\n", c.Help, c.Name)
	fmt.Fprintf(w, "Usage: %s [command]\n", args[0])
	for _, sub := range c.Sub {
		if len(sub.Name) == 0 {
			fmt.Fprintln(w)
			continue
		}
		spaces := strings.Repeat(" ", max(16-len(sub.Name), 1))
		fmt.Fprintf(w, "  %s%s%s\n", sub.Name, spaces, sub.Help)
	}
	fmt.Fprintln(w)
}

// Execute runs the command selected by args.
func (c *CmdTree) Execute(args []string) {
	if sub, sargs := c.find(args); sub != nil {
		sub.Execute(sargs)
		return
	}
	if c.Fun != nil {
		c.Fun(args)
		return
	}
	c.Usage(args)
}

// find returns the subcommand named by args[1] and the arguments to pass on to it.
func (c *CmdTree) find(args []string) (*CmdTree, []string) {
	if c.Fun != nil || len(args) <= 1 {
		return nil, nil
	}
	for _, sub := range c.Sub {
		if len(sub.Name) > 0 && args[1] == sub.Name {
			name := args[0] + " " + args[1]
			return sub, append([]string{name}, args[2:]...)
		}
	}
	return nil, nil
}
