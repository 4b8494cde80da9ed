// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package workgen generates synthetic workloads and task graphs for
// simulations of data-intensive distributed computing, in the style of
// high-energy-physics batch processing over tiered cache and remote
// storage. For a batch of jobs it produces resource requirements sampled
// from configurable distributions, a directed acyclic task graph that
// models blockwise streaming of input data overlapped with computation,
// and a storage-tier placement plan realizing a target cache hit ratio.
//
// Nothing in this package executes anything. A generation pass builds an
// immutable [Workflow] and hands it, together with a [Submission] schedule
// and per-file tier placement, to an external engine through the [Executor]
// and [Stager] interfaces. What the engine does with them, and whether jobs
// meet their targets, is out of scope here.
//
// Generation is deterministic: every sampling and shuffling call draws from
// one explicitly threaded generator (see [NewRand]), so identical inputs and
// an identical seed reproduce identical graphs and placements bit for bit.
//
// The scenario subpackage layers a declarative YAML document format over
// this API and is the usual entry point for whole simulation setups.
package workgen
