/*-
 * Copyright (c) 2020 Abhinav Upadhyay
 * All rights reserved.
 *
 * Redistribution and use in source and binary forms, with or without
 * modification, are permitted provided that the following conditions
 * are met:
 * 1. Redistributions of source code must retain the above copyright
 *    notice, this list of conditions and the following disclaimer.
 * 2. Redistributions in binary form must reproduce the above copyright
 *    notice, this list of conditions and the following disclaimer in the
 *    documentation and/or other materials provided with the distribution.
 *
 * THIS SOFTWARE IS PROVIDED BY THE AUTHOR AND CONTRIBUTORS ``AS IS'' AND
 * ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
 * IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE
 * ARE DISCLAIMED.  IN NO EVENT SHALL THE AUTHOR OR CONTRIBUTORS BE LIABLE
 * FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL
 * DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS
 * OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION)
 * HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT
 * LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY
 * OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF
 * SUCH DAMAGE.
 */

// recshell is an interactive line-oriented front end to recdb, for poking
// at a database by hand. It opens (creating if necessary) the database
// named on the command line and reads commands from stdin until "quit"
// or EOF.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/kvfile/recdb/internal/recdblog"
	"github.com/kvfile/recdb/recdb"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s DBNAME\n", os.Args[0])
		os.Exit(1)
	}

	db, err := openDB(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[0], err)
		os.Exit(1)
	}
	defer db.Close()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		if executeCmd(db, scanner.Text()) {
			break
		}
	}
}

func openDB(name string) (*recdb.Handle, error) {
	return recdb.Create(name, recdb.WithLogger(recdblog.New()))
}

func executeCmd(db *recdb.Handle, cmdArgs string) (doExit bool) {
	args := strings.Fields(cmdArgs)
	if len(args) == 0 {
		return false
	}

	switch args[0] {
	case "put":
		if len(args) != 3 {
			fmt.Println("usage: put <key> <value>")
			return false
		}
		if err := db.Store(args[1], args[2], recdb.Insert); err != nil {
			fmt.Printf("failed to insert %q: %v\n", args[1], err)
		}

	case "update":
		if len(args) != 3 {
			fmt.Println("usage: update <key> <value>")
			return false
		}
		if err := db.Store(args[1], args[2], recdb.Replace); err != nil {
			fmt.Printf("failed to update %q: %v\n", args[1], err)
		}

	case "upsert":
		if len(args) != 3 {
			fmt.Println("usage: upsert <key> <value>")
			return false
		}
		if err := db.Store(args[1], args[2], recdb.Upsert); err != nil {
			fmt.Printf("failed to upsert %q: %v\n", args[1], err)
		}

	case "get":
		if len(args) != 2 {
			fmt.Println("usage: get <key>")
			return false
		}
		val, err := db.Fetch(args[1])
		if err != nil {
			fmt.Printf("%q: %v\n", args[1], err)
			return false
		}
		fmt.Printf("%s\n", val)

	case "delete":
		if len(args) != 2 {
			fmt.Println("usage: delete <key>")
			return false
		}
		if err := db.Delete(args[1]); err != nil {
			fmt.Printf("failed to delete %q: %v\n", args[1], err)
		}

	case "scan":
		db.Rewind()
		for {
			key, val, err := db.Next()
			if err != nil {
				break
			}
			fmt.Printf("%s=%s\n", key, val)
		}

	case "stats":
		s := db.Stats()
		fmt.Printf("fetch ok=%d err=%d, store append=%d reuse=%d in-place=%d relocate=%d, delete ok=%d err=%d\n",
			s.FetchOK, s.FetchErr, s.StoreAppend, s.StoreReuse, s.StoreReplaceInPlace, s.StoreReplaceRelocate,
			s.DeleteOK, s.DeleteErr)

	case "quit", "exit":
		return true

	default:
		fmt.Printf("unrecognized command %q\n", args[0])
		fmt.Println("supported commands: put|update|upsert|get|delete|scan|stats|quit")
	}
	return false
}
