// SPDX-License-Identifier: EPL-2.0

// Package audeng is a small positional audio engine for games and other
// programs that run a main loop.
//
// Sounds are decoded into memory once and played by any number of
// speakers. Long files are streamed: a Stream keeps a bounded queue of
// decoded audio ahead of the speaker bound to it. Every speaker holds one
// channel of a fixed pool; when the pool is full a new request takes the
// channel of a lower priority speaker or fails.
//
// # Supported Formats
//
// Files are picked by extension:
//   - WAV (PCM 8 and 16-bit) via formats/wav
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//   - AIFF (PCM 16-bit) via formats/aiff
//
// # Quick Start
//
// The package-level functions drive a process-wide engine:
//
//	if err := audeng.Initialize(true); err != nil {
//		log.Fatal(err)
//	}
//	defer audeng.Close()
//
//	shot, err := audeng.LoadSound("shot.wav", false)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	opts := audeng.DefaultPlayOptions()
//	opts.Position = vec.Vec3{X: 4, Z: -2}
//	id := audeng.Play(shot, opts)
//
//	for running {
//		audeng.Update(frameTime)
//		if spk := audeng.Get(id); spk != nil {
//			spk.SetPosition(enemyPos)
//		}
//	}
//
// An id stays valid until the speaker stops and the next Update releases
// it. After that Get returns nil, even when the slot is reused.
//
// # Streaming
//
// PlayStreamFile opens a file and plays it; the engine closes the stream
// once its speaker is released:
//
//	music := audeng.DefaultPlayOptions()
//	music.Loop = true
//	audeng.PlayStreamFile("theme.ogg", music)
//
// A Stream opened with OpenStream can be bound to a new speaker at any
// time. The previous speaker plays out what it already queued and stops.
//
// # Priorities
//
// Sounds request a priority, streams always use audio.PriorityHigh. When
// no channel is free the engine pre-empts the speaker with the lowest
// priority strictly below the request, preferring paused speakers, then
// the oldest one. Equal priorities never pre-empt each other.
//
// # Backends
//
// The mixer in backend/softmix renders into an output driver (oto, beep,
// portaudio with the portaudio build tag, or null). When audio is disabled
// or the driver cannot start, the engine runs on backend/dummy: loading
// still works, playing returns 0.
//
// # Configuration
//
// See the config package for the YAML file, .env file and AUDENG_*
// environment variables read by InitializeWith.
package audeng
