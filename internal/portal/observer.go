package portal

import "portal-engine/internal/pose"

// Observer is the camera or avatar subject to crossing detection and teleportation.
// It is owned by an external controller; the portal system only reads it and, on a
// teleport, overwrites its pose and scene.
type Observer interface {
	Pose() pose.Pose
	SetPose(pose.Pose)
	Scene() SceneID
	SetScene(SceneID)
}
