package main

import (
	"fmt"
	"log"
	"os"

	"sparqlcore/engine"
	"sparqlcore/engine/algebra"
	"sparqlcore/engine/rowsource"
	"sparqlcore/engine/translator"
	"sparqlcore/engine/variable"
	"sparqlcore/format"
	"sparqlcore/pkg/rdf"
	"sparqlcore/queryresults"
	"sparqlcore/triplesource"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: sparqlcore <command>")
		fmt.Println("Commands:")
		fmt.Println("  demo          - run a translator+rowsource demo over in-memory sample data")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "demo":
		runDemo()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}
}

// runDemo wires every layer end to end: a triples source loaded with
// sample quads, a hand-built algebra tree (no surface parser in scope),
// translation into a rowsource pipeline, and the bindings facade
// streamed through the TSV writer. Stands in for the excluded CLI
// driver/parser just enough to exercise the library by hand.
func runDemo() {
	source := triplesource.NewMemorySource()
	defer source.Close()

	loader, ok := source.(interface{ Load(*rdf.Quad) error })
	if !ok {
		log.Fatal("demo: source does not support bulk load")
	}

	alice := rdf.NewIRI("http://example.org/alice")
	bob := rdf.NewIRI("http://example.org/bob")
	name := rdf.NewIRI("http://xmlns.com/foaf/0.1/name")
	knows := rdf.NewIRI("http://xmlns.com/foaf/0.1/knows")

	quads := []*rdf.Quad{
		rdf.NewQuad(alice, name, rdf.NewPlainLiteral("Alice"), rdf.DefaultGraphIRI),
		rdf.NewQuad(bob, name, rdf.NewPlainLiteral("Bob"), rdf.DefaultGraphIRI),
		rdf.NewQuad(alice, knows, bob, rdf.DefaultGraphIRI),
	}
	for _, q := range quads {
		if err := loader.Load(q); err != nil {
			log.Fatalf("demo: load quad: %v", err)
		}
	}

	table := variable.NewTable()
	table.Intern("person", 0)
	table.Intern("name", 0)

	patterns := []algebra.TriplePattern{
		{Subject: rdf.NewVariableRef("person"), Predicate: name, Object: rdf.NewVariableRef("name")},
	}
	tree := algebra.Project(
		algebra.BGP(patterns, []int{0}, 0, 0),
		[]string{"person", "name"},
	)

	opts := engine.New(engine.WithBlankPrefix("demo"))
	if err := opts.NegotiateVersion("memory-source", triplesource.MinFactoryVersion); err != nil {
		log.Fatalf("demo: %v", err)
	}

	env := rowsource.NewEvalEnv(opts.Now, opts.BlankPrefix, opts.Seed)
	tr := translator.New(table, source, env)
	top, err := tr.Build(tree)
	if err != nil {
		log.Fatalf("demo: translate: %v", err)
	}

	facade := queryresults.NewBindingsFacade(table, source, top, env, []string{"person", "name"}, opts.Logger)
	if err := facade.ExecuteInit(); err != nil {
		log.Fatalf("demo: execute: %v", err)
	}
	defer facade.Finish()

	writer := format.NewTSVWriter()
	if err := writer.WriteBindings(os.Stdout, facade); err != nil {
		log.Fatalf("demo: write results: %v", err)
	}
}
