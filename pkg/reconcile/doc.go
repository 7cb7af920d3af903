/*
Copyright 2021 Stefan Prodan

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package reconcile contains the desired state reconciler for UCS managed object trees.
//
// The Reconciler can be used to converge a single entity that:
// - is described as a tree of DesiredNode, parent first, children in create order
// - is compared only on the properties listed for each node
// - is replaced as a whole when any level is missing or has drifted
// - is removed together with its descendants when the absent state is requested
// - can be previewed in dry-run mode without any write calls to the appliance
package reconcile
