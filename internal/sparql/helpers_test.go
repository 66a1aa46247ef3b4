package sparql

// must unwraps a constructor result in test fixtures.
func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func v(name string) *Variable { return must(NewVariable(name)) }

func u(uri string) *URI { return must(NewURI(uri)) }

func lit(value string) *Literal { return must(NewLiteral(value)) }

func axiom(s Expression, p string, o Expression) *Axiom { return must(NewAxiom(s, p, o)) }
