// SPDX-License-Identifier: EPL-2.0

// Package audio defines the engine's data model and the contracts every
// backend implements, together with the sample processing primitives the
// backends are built from.
//
// # Data
//
// PCM is an immutable buffer of decoded 8-bit unsigned or 16-bit signed
// samples. PCMStream is a pull-based cursor producing the same byte layout
// incrementally; ReadFully reads from one with optional seamless looping.
// Share hands out reference-counted handles to a PCMStream that several
// owners use.
//
// # Playback contracts
//
// A Backend creates Sounds (fully decoded, replayable) and Streams
// (incrementally decoded, one speaker at a time). Both hand out Speakers,
// the playback channels carrying volume, pitch, loop, 3D position and
// priority:
//
//	snd, _ := backend.CreateSound(pcm, false)
//	spk := snd.NewInstance(audio.PriorityNormal)
//	if spk != nil {
//	    spk.SetVolume(0.8)
//	    spk.Play()
//	}
//
// # Processing
//
// Source is a float32 signal in [-1,1]. Decoders registered in a Registry
// produce Sources; Resampler changes their rate (and, through SetRatio,
// their pitch) and MonoMixer folds channels:
//
//	r := audio.NewResampler(src, 48000)
//	r.SetRatio(r.BaseRatio() * 1.5)
//	n, err := r.ReadSamples(buf)
//
// Sources return io.EOF when they end. A Source that returns (0, nil) has
// no data yet; the Resampler passes that on instead of ending.
package audio
