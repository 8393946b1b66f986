//go:build js && wasm
// +build js,wasm

package main

import (
	"fmt"
	"syscall/js"

	"github.com/himanishpuri/MyoDNA/pkg/myodna/analysis"
	"github.com/himanishpuri/MyoDNA/pkg/myodna/match"
	"github.com/himanishpuri/MyoDNA/pkg/myodna/signal"
)

// Error codes returned to JavaScript
const (
	ErrorNone = iota
	ErrorInvalidArgs
	ErrorEmptySignal
	ErrorNoReferences
)

// readSignal converts a JS Array or Float64Array into a Signal. The
// second return value is an error message, empty on success.
func readSignal(value js.Value, name string) (signal.Signal, string) {
	if value.Type() != js.TypeObject {
		return nil, fmt.Sprintf("%s must be an Array or Float64Array", name)
	}
	length := value.Length()
	if length == 0 {
		return nil, fmt.Sprintf("%s is empty", name)
	}
	sig := make(signal.Signal, length)
	for i := 0; i < length; i++ {
		element := value.Index(i)
		if element.Type() != js.TypeNumber {
			return nil, fmt.Sprintf("%s element %d is not a number", name, i)
		}
		sig[i] = element.Float()
	}
	return sig, ""
}

// Matches a candidate signal against caller-supplied references.
// references is an object mapping label -> array of signal arrays.
// Returns: {error: number, data: {label, known, distance, compared, lengthMismatch, nonFinite} | string}
func matchSignal(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return makeErrorResponse(ErrorInvalidArgs, "Expected 2 arguments: candidateArray, referencesObject")
	}

	candidate, errMsg := readSignal(args[0], "candidateArray")
	if errMsg != "" {
		return makeErrorResponse(ErrorEmptySignal, errMsg)
	}

	refsJS := args[1]
	if refsJS.Type() != js.TypeObject {
		return makeErrorResponse(ErrorInvalidArgs, "referencesObject must be an object mapping label to signal arrays")
	}

	keys := js.Global().Get("Object").Call("keys", refsJS)
	var refs []match.Reference
	for k := 0; k < keys.Length(); k++ {
		label := keys.Index(k).String()
		signalsJS := refsJS.Get(label)
		if signalsJS.Type() != js.TypeObject {
			return makeErrorResponse(ErrorInvalidArgs, fmt.Sprintf("references for %q must be an array of signal arrays", label))
		}
		for i := 0; i < signalsJS.Length(); i++ {
			sig, errMsg := readSignal(signalsJS.Index(i), fmt.Sprintf("reference %s[%d]", label, i))
			if errMsg != "" {
				return makeErrorResponse(ErrorInvalidArgs, errMsg)
			}
			refs = append(refs, match.Reference{Label: label, Signal: sig})
		}
	}
	if len(refs) == 0 {
		return makeErrorResponse(ErrorNoReferences, "referencesObject holds no signals")
	}

	best, stats := match.Nearest(candidate, refs)

	data := js.Global().Get("Object").New()
	data.Set("label", best.Label)
	data.Set("known", best.Label != match.Unknown)
	// JS carries Infinity natively, so the unknown sentinel survives.
	data.Set("distance", best.Distance)
	data.Set("compared", stats.Compared)
	data.Set("lengthMismatch", stats.LengthMismatch)
	data.Set("nonFinite", stats.NonFinite)

	result := js.Global().Get("Object").New()
	result.Set("error", ErrorNone)
	result.Set("data", data)
	return result
}

// Computes the magnitude spectrum of a signal for browser-side display.
// Returns: {error: number, data: {dominantBin, frequency, spectrum} | string}
func analyzeSignal(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return makeErrorResponse(ErrorInvalidArgs, "Expected 2 arguments: signalArray, sampleRate")
	}

	sig, errMsg := readSignal(args[0], "signalArray")
	if errMsg != "" {
		return makeErrorResponse(ErrorEmptySignal, errMsg)
	}
	if args[1].Type() != js.TypeNumber {
		return makeErrorResponse(ErrorInvalidArgs, "sampleRate must be a number")
	}
	sampleRate := args[1].Int()
	if sampleRate <= 0 {
		return makeErrorResponse(ErrorInvalidArgs, fmt.Sprintf("Invalid sample rate: %d", sampleRate))
	}

	spectrum := analysis.Spectrum(sig)
	bin := analysis.DominantBin(spectrum)

	spectrumJS := js.Global().Get("Array").New()
	for i, magnitude := range spectrum {
		spectrumJS.SetIndex(i, magnitude)
	}

	data := js.Global().Get("Object").New()
	data.Set("dominantBin", bin)
	if bin >= 0 {
		data.Set("frequency", analysis.BinFrequency(bin, len(sig), sampleRate))
	} else {
		data.Set("frequency", 0)
	}
	data.Set("spectrum", spectrumJS)

	result := js.Global().Get("Object").New()
	result.Set("error", ErrorNone)
	result.Set("data", data)
	return result
}

func makeErrorResponse(errorCode int, message string) js.Value {
	result := js.Global().Get("Object").New()
	result.Set("error", errorCode)
	result.Set("data", message)
	return result
}

func main() {
	console := js.Global().Get("console")
	if !console.IsUndefined() {
		console.Call("log", "🔧 MyoDNA WASM module initializing...")
	}

	done := make(chan struct{})

	js.Global().Set("matchSignal", js.FuncOf(matchSignal))
	js.Global().Set("analyzeSignal", js.FuncOf(analyzeSignal))

	if !console.IsUndefined() {
		console.Call("log", "📝 matchSignal and analyzeSignal registered")
	}

	window := js.Global().Get("window")
	if !window.IsUndefined() {
		eventInit := js.Global().Get("Object").New()
		event := js.Global().Get("CustomEvent").New("wasmReady", eventInit)
		window.Call("dispatchEvent", event)
		if !console.IsUndefined() {
			console.Call("log", "📤 wasmReady event dispatched")
		}
	}

	if !console.IsUndefined() {
		console.Call("log", "✅ MyoDNA WASM module loaded and ready")
	}

	<-done
}
