// Package equilibrium computes multiphase thermodynamic equilibrium for a
// mixture at fixed pressure and temperature by direct minimization of the
// reduced Gibbs free energy
//
//	min G = Σ_{i=1..np} Σ_{j=1..nc} n_ij · ln f_ij(x_i)
//
// subject to 0 <= n_ij <= n_feed, where np and nc are the number of phases
// and components.
//
// Following Srinivas & Rangaiah (2007), the decision variable is changed to
// a β parametrization that satisfies per-component material balance by
// construction:
//
//	n_1j = β_1j · z_j · F
//	n_kj = β_kj · (z_j·F − Σ_{i<k} n_ij)   k = 2..np−1
//	n_kj = z_j·F − Σ_{i<k} n_ij            k = np
//
// so any β in the unit box is feasible and the global optimizer needs no
// constraint handling. The thermodynamic model (fugacities) and the global
// optimizer are both collaborators supplied through the Model and Minimizer
// interfaces; package de provides the default differential-evolution
// Minimizer.
//
// References:
//
//	Nichita, D.V., Gomez, S., Luna, E. (2002). Multiphase equilibria
//	calculation by direct minimization of Gibbs free energy with a global
//	optimization method. Computers & Chemical Engineering 26(12).
//
//	Srinivas, M., Rangaiah, G.P. (2007). Differential evolution with tabu
//	list for global optimization and its application to phase equilibrium
//	and parameter estimation problems. Ind. Eng. Chem. Res. 46(10).
package equilibrium
