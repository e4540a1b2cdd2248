// Package preflight provides readiness checks for the external tools, model
// files, directories and services subburn depends on.
//
// These checks run in two contexts:
//   - The pipeline calls CheckDependencies before any stateful work. A missing
//     encoder, renderer or model file ends the run with a
//     DependencyMissingError naming the path.
//   - The CLI "subburn check" command uses RunAll to display overall health,
//     including directory permissions and translation API reachability.
package preflight
