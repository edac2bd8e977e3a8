// Package evonet provides evolutionary training of small recurrent
// neural networks represented as directed weighted graphs.
//
// A network is a graph whose arcs carry real-valued weights. Applying
// the network injects the input vector as pulses at the input nodes and
// lets them flow along the arcs, scaled by each arc's weight, until
// they decay below a configured threshold; the values accumulated at
// the output nodes form the output vector. Training searches the arc
// weights with a derivative-free bound-constrained optimiser, and
// evolution searches the graph topology itself with mutation,
// crossover and selection, re-training every candidate.
//
// Basic usage:
//
//	ids := evonet.NewIDGenerator(0)
//	seed, err := evonet.NewMutator(ids, 2, 1, 0.1)
//	if err != nil {
//		log.Fatalf("Error building seed network: %v", err)
//	}
//
//	conf := &evolve.Config{
//		Train: &evonet.TrainConfig{
//			ApplyConfig:      evonet.ApplyConfig{Threshold: 1e-4},
//			MaxFunctionCalls: 1000,
//		},
//		Samples:        samples,
//		RNG:            rand.New(rand.NewSource(1)),
//		IDs:            ids,
//		PopulationSize: 4,
//		TargetError:    1e-3,
//		Iterations:     10,
//	}
//
//	best, err := evolve.Run(seed, conf)
//	if err != nil {
//		log.Fatalf("Error evolving network: %v", err)
//	}
//	fmt.Println(nn.Compile(best))
package evonet
