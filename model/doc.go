// Package model defines the task domain entities shared by the trackflow
// services: the task record with its review block, the identities supplied
// by an external directory and the project reference used for scope
// filtering. Entities are plain data holders - all behavioural rules live
// in the service packages.
package model
