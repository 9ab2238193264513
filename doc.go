// Package versioncall invokes worker functions under a runtime version
// satisfying a semver constraint, transparently choosing between in-process
// execution and a spawned process from a separately installed version of
// the same binary family.
//
// A host application registers its identity and its workers, and hooks the
// worker-serve mode before CLI parsing:
//
//	func main() {
//		versioncall.SetRuntime("mytool", version)
//		versioncall.RegisterWorker("workers/report", buildReport)
//		if served, err := versioncall.MaybeServeWorker(os.Args); served {
//			if err != nil {
//				log.Fatal(err)
//			}
//			return
//		}
//		// ... normal CLI ...
//	}
//
// Invocations then run through any of the four surfaces:
//
//	result, err := versioncall.CallSync(">=2.1.0 <3", "workers/report", versioncall.Options{}, input)
//
//	report := versioncall.Bind("^2.1.0", "workers/report", versioncall.Options{})
//	future := report(input)
//	result, err = future.Await()
//
// The local-versus-remote decision is made once per bound caller and frozen;
// when remote, each invocation spawns one short-lived worker process and
// exchanges arguments and results through a structure-preserving JSON wire
// format.
package versioncall
