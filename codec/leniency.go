package codec

// Leniency selects the non-canonical representations the built-in codecs
// accept. Every accepted coercion asks for a rewrite.
type Leniency int

const (
	LenientTextNumber      Leniency = 1 << iota // "42" -> 42, "1.5" -> 1.5
	LenientTextBool                             // "true", "yes", "on", "off", "no", "false" -> bool
	LenientNumericBool                          // 0, 1 -> bool
	LenientScalarText                           // 42, true, 'c' -> "42", "true", "c"
	LenientIntegralFloat                        // 3.0 -> 3
	LenientSingleton                            // x -> [x]
	LenientNumericDuration                      // 90, 1.5 (seconds) -> time.Duration

	LenientAll  Leniency = (1 << iota) - 1 // every coercion
	LenientNone Leniency = 0               // canonical input only
)

func (l Leniency) Has(flag Leniency) bool { return l&flag == flag }
