// recctl is a one-shot, scriptable front end to recdb: run a single
// operation against a database and exit, rather than recshell's
// interactive loop. Flag handling is grounded on the go-bbhash pack's
// mphdb.go example: a pflag.FlagSet, a die/warn pair, and no subcommand
// framework beyond that.
package main

import (
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/kvfile/recdb/internal/recdblog"
	"github.com/kvfile/recdb/recdb"
)

var (
	dbPath string
	op     string
	key    string
	value  string
	nhash  uint64
)

func main() {
	flag.StringVarP(&dbPath, "db", "d", "", "database path (required)")
	flag.StringVarP(&op, "op", "o", "", "operation: put|update|upsert|get|delete|scan|stats (required)")
	flag.StringVarP(&key, "key", "k", "", "record key")
	flag.StringVarP(&value, "value", "v", "", "record value (put/update/upsert)")
	flag.Uint64VarP(&nhash, "nhash", "n", recdb.DefaultNHash, "hash-table chain count; must match the value the database was created with")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s -db PATH -op OP [-key K] [-value V] [-nhash N]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if dbPath == "" || op == "" {
		flag.Usage()
		os.Exit(2)
	}

	db, err := recdb.Create(dbPath, recdb.WithNHash(nhash), recdb.WithLogger(recdblog.New()))
	if err != nil {
		die("open %s: %v", dbPath, err)
	}
	defer db.Close()

	if err := run(db, op); err != nil {
		die("%s: %v", op, err)
	}
}

func run(db *recdb.Handle, op string) error {
	switch op {
	case "put":
		return db.Store(key, value, recdb.Insert)
	case "update":
		return db.Store(key, value, recdb.Replace)
	case "upsert":
		return db.Store(key, value, recdb.Upsert)
	case "get":
		val, err := db.Fetch(key)
		if err != nil {
			return err
		}
		fmt.Println(string(val))
		return nil
	case "delete":
		return db.Delete(key)
	case "scan":
		db.Rewind()
		for {
			k, v, err := db.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return err
			}
			fmt.Printf("%s=%s\n", k, v)
		}
		return nil
	case "stats":
		s := db.Stats()
		fmt.Printf("fetch ok=%d err=%d\n", s.FetchOK, s.FetchErr)
		fmt.Printf("store append=%d reuse=%d in-place=%d relocate=%d\n",
			s.StoreAppend, s.StoreReuse, s.StoreReplaceInPlace, s.StoreReplaceRelocate)
		fmt.Printf("delete ok=%d err=%d\n", s.DeleteOK, s.DeleteErr)
		return nil
	default:
		return fmt.Errorf("unrecognized op %q", op)
	}
}

func die(f string, v ...interface{}) {
	warn(f, v...)
	os.Exit(1)
}

func warn(f string, v ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s: ", os.Args[0])
	fmt.Fprintf(os.Stderr, f, v...)
	fmt.Fprintln(os.Stderr)
}
