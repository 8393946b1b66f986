package reference_scripts

import (
	"encoding/json"
	"fmt"

	"github.com/himanishpuri/MyoDNA/pkg/myodna"
	"github.com/himanishpuri/MyoDNA/pkg/myodna/device"
)

// Demo gesture profiles. Amplitude separates the labels enough that
// nearest-distance matching on the seeded data behaves sensibly.
type gestureProfile struct {
	Label     string  `json:"label"`
	Amplitude float64 `json:"amplitude"`
	Seed      int64   `json:"seed"`
	Windows   int     `json:"windows"`
	Saved     int     `json:"saved"`
}

func seedProfile(svc myodna.Service, profile *gestureProfile, window int) error {
	synth := device.NewSynth(window, profile.Windows, profile.Amplitude, profile.Seed)
	defer synth.Close()

	for {
		sig, ok := synth.Next()
		if !ok {
			break
		}
		if svc.SaveSignal(profile.Label, sig) {
			profile.Saved++
		}
	}
	if profile.Saved == 0 {
		return fmt.Errorf("no signals saved for %s", profile.Label)
	}
	return nil
}

func main() {
	const window = 64

	svc, err := myodna.NewService(myodna.WithDataRoot("myodna_data"))
	if err != nil {
		panic(err)
	}
	defer svc.Close()

	profiles := []gestureProfile{
		{Label: "fist", Amplitude: 0.9, Seed: 7, Windows: 5},
		{Label: "wave_in", Amplitude: 0.5, Seed: 11, Windows: 5},
		{Label: "rest", Amplitude: 0.1, Seed: 3, Windows: 5},
	}

	for i := range profiles {
		if err := seedProfile(svc, &profiles[i], window); err != nil {
			panic(err)
		}
	}

	out, _ := json.MarshalIndent(profiles, "", "  ")
	fmt.Println(string(out))
}
